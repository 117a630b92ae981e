package main

import (
	"os"

	"jobmate/recruiter-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
