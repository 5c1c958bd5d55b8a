package main

import (
	_ "time/tzdata" // Bundle the timezone database so feed timezones work in scratch containers

	"wahoowatch/cmd"

	_ "golang.org/x/crypto/x509roots/fallback" // We need this to make TLS work in scratch containers
)

func main() {
	cmd.Execute()
}
