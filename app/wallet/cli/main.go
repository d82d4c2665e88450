// This program is a wallet for the gossipchain node. It manages private key
// files and talks to the node's public API.
package main

import "github.com/ardanlabs/gossipchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
