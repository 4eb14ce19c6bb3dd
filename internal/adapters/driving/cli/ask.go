package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askQuery queryFlags
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about transactions",
	Long: `Searches transactions with the given criteria and asks the backend a
natural-language question about them.

Example:
  aptview ask "가장 비싸게 거래된 아파트는?" --city 서울특별시 --district 강남구`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askQuery.bind(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if services == nil || services.Chat == nil {
		return errNotConfigured
	}
	question := args[0]

	trades, err := queryTrades(cmd, &askQuery)
	if err != nil {
		return err
	}

	answer, err := services.Chat.Ask(cmd.Context(), trades, question)
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(map[string]any{
			"question":    strings.TrimSpace(question),
			"answer":      answer,
			"trade_count": len(trades),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Q. %s\n\n%s\n", strings.TrimSpace(question), answer)
	return nil
}
