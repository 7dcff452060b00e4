package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// exitWords end the interactive session.
var exitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive football chat session",
	Long: `Start an interactive session and ask football questions in natural
language. Type "sair", "exit" or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		fmt.Println("Olá! Faça uma pergunta sobre futebol (escreva 'sair' para terminar).")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if exitWords[strings.ToLower(question)] {
				fmt.Println("Até à próxima!")
				break
			}
			fmt.Println(app.answer(cmd.Context(), question))
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
