package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ABREV_GO/pix"
)

var rootCmd = &cobra.Command{
	Use:          "pixcode",
	Short:        "Gera e confere códigos PIX copia e cola",
	SilenceUsage: true,
}

var genData pix.PixData

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Gera o código PIX estático",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var decodeCmd = &cobra.Command{
	Use:   "decode CODE",
	Short: "Confere o CRC e mostra os campos de um código PIX",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	generateCmd.Flags().StringVar(&genData.Key, "key", "", "chave PIX (email, telefone, CPF/CNPJ ou aleatória)")
	generateCmd.Flags().StringVar(&genData.Name, "name", "", "nome do recebedor")
	generateCmd.Flags().StringVar(&genData.City, "city", "", "cidade do recebedor")
	generateCmd.Flags().Float64Var(&genData.Amount, "amount", 0, "valor em reais; 0 deixa o valor livre")
	generateCmd.Flags().StringVar(&genData.TxID, "txid", "", "identificador da transação")
	generateCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(generateCmd, decodeCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := pix.Validate(genData); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), pix.GeneratePixCode(genData))
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := pix.Decode(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "chave:  %s\n", data.Key)
	fmt.Fprintf(out, "nome:   %s\n", data.Name)
	fmt.Fprintf(out, "cidade: %s\n", data.City)
	if amount, ok := pix.FormatAmount(data.Amount); ok {
		fmt.Fprintf(out, "valor:  %s\n", amount)
	} else {
		fmt.Fprintln(out, "valor:  livre")
	}
	fmt.Fprintf(out, "txid:   %s\n", data.TxID)
	return nil
}
