// Command cantinho is the terminal client of the back office: sign in,
// read the day's agenda and the dashboard, and keep the reminder list.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(newCLI(os.Stdin, os.Stdout, os.Stderr)).Execute(); err != nil {
		os.Exit(1)
	}
}
