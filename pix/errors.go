package pix

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrMalformedTLV      = errors.New("tlv malformado")
	ErrMissingCRC        = errors.New("campo CRC (6304) ausente")
	ErrChecksumMismatch  = errors.New("CRC16 não confere")
	ErrUnsupportedFormat = errors.New("payload format indicator não suportado")
	ErrNotPix            = errors.New("código não contém conta PIX")
	ErrEmptyKey          = errors.New("chave PIX vazia")
	ErrFieldTooLong      = errors.New("campo excede 99 caracteres")
	ErrInvalidTxID       = errors.New("txid inválido")
	ErrInvalidAmount     = errors.New("valor inválido")
	ErrInvalidText       = errors.New("caractere fora do ASCII")
)

// FieldError associa um erro à tag do campo BR Code que o causou.
type FieldError struct {
	ID  string
	Err error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("campo %s: %v", fe.ID, fe.Err)
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}
