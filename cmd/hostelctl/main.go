// Command hostelctl manages a hostel from the terminal, either against a
// running API server or against a local SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/yeremiapane/hostel-app/utils"
)

func main() {
	utils.InitLogger("warn")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
