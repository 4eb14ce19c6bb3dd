package cli

import (
	"github.com/spf13/cobra"
)

var codesCmd = &cobra.Command{
	Use:   "codes [city]",
	Short: "List cities or the districts of a city",
	Long: `Without an argument, lists every city (시/도) the backend knows.
With a city, lists its districts (시/군/구).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, args []string) error {
	if services == nil || services.Reference == nil {
		return errNotConfigured
	}

	if len(args) == 0 {
		codes, err := services.Reference.LoadCodeMap(cmd.Context())
		if err != nil {
			return err
		}
		for _, city := range codes.Cities() {
			cmd.Printf("%s (%d)\n", city, len(codes.Districts(city)))
		}
		return nil
	}

	districts, err := services.Reference.LoadDistricts(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(districts) == 0 {
		cmd.Printf("%s: 시/군/구 정보가 없습니다.\n", args[0])
		return nil
	}
	for _, d := range districts {
		cmd.Println(d)
	}
	return nil
}
