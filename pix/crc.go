package pix

import "fmt"

// CRC-16/CCITT-FALSE: init 0xFFFF, polinômio 0x1021, sem reflexão e sem XOR final.
const (
	crcInit       = 0xFFFF
	crcPolynomial = 0x1021
)

// Checksum calcula o CRC16 byte a byte, MSB primeiro.
func Checksum(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// CRC16 retorna o checksum de input como 4 dígitos hexadecimais maiúsculos.
// O cálculo usa os bytes UTF-8 de input; para texto ASCII, o único aceito
// por Validate, bytes e caracteres coincidem.
func CRC16(input string) string {
	return fmt.Sprintf("%04X", Checksum([]byte(input)))
}
