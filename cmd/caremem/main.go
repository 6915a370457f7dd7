package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/habiliai/caremem/cmd/caremem/cmd"
)

func main() {
	cmd.Execute()
}
