package main

import "voucher-extractor/cmd"

func main() {
	cmd.Execute()
}
