package main

import "github.com/finledger/ledger-engine/cmd"

func main() {
	cmd.Execute()
}
