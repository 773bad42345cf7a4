package main

import "github.com/nkrka/kyc-review/cmd"

func main() {
	cmd.Execute()
}
