// Gearshed tracks club gear: who holds each item, whether it can go out,
// and an append-only ledger of every state change.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
