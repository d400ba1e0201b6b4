package main

import (
	"fmt"
	"os"

	"user_accounts/internal/utils"
)

// Prints freshly generated secrets as KEY=value lines, ready for a .env file.
func main() {
	creds, err := utils.GenerateCredentials()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, c := range creds {
		fmt.Printf("%s=%s\n", c.Name, c.Value)
	}
}
