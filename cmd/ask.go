package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single football question",
	Long: `Ask one natural language question about football and exit.

Examples:
  augusta ask "Quem ganhou o Porto contra o Benfica em 2023?"
  augusta ask "Em que lugar ficou o Sporting na época passada?"
  augusta ask "Quantos golos marcou o Gyökeres esta época?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		fmt.Println(app.answer(cmd.Context(), question))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
