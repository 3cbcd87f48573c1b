// cmd/lacthermo/main.go
package main

import (
	"lacthermo/internal/app"
	"lacthermo/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
