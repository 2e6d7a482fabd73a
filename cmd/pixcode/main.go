// Command pixcode gera e confere códigos PIX "copia e cola" pela linha de comando.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
