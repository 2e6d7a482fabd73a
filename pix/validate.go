package pix

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

const (
	MaxTxIDLength   = 25
	MaxAmountLength = 13
)

// Validate faz as checagens que GeneratePixCode deixa para quem chama:
// chave presente, templates dentro de 99 caracteres, txid e valor bem formados.
// Chave, nome e cidade precisam ser ASCII depois da normalização, pois o CRC16
// é calculado sobre os bytes do payload.
func Validate(data PixData) error {
	if strings.TrimSpace(data.Key) == "" {
		return &FieldError{ID: TagMerchantAccount, Err: ErrEmptyKey}
	}
	if err := validateASCII(data.Key); err != nil {
		return &FieldError{ID: TagMerchantAccount, Err: err}
	}
	if n := utf8.RuneCountInString(merchantAccount(data.Key)); n > MaxFieldLength {
		return &FieldError{ID: TagMerchantAccount, Err: errors.Wrapf(ErrFieldTooLong, "%d caracteres", n)}
	}

	data = data.WithDefaults()
	if err := validateASCII(Normalize(data.Name, MaxMerchantName)); err != nil {
		return &FieldError{ID: TagMerchantName, Err: err}
	}
	if err := validateASCII(Normalize(data.City, MaxMerchantCity)); err != nil {
		return &FieldError{ID: TagMerchantCity, Err: err}
	}
	if err := validateTxID(data.TxID); err != nil {
		return &FieldError{ID: TagAdditionalData, Err: err}
	}

	if math.IsNaN(data.Amount) || math.IsInf(data.Amount, 0) || data.Amount < 0 {
		return &FieldError{ID: TagAmount, Err: ErrInvalidAmount}
	}
	if amount, ok := FormatAmount(data.Amount); ok {
		if amount == "0.00" {
			return &FieldError{ID: TagAmount, Err: errors.Wrap(ErrInvalidAmount, "menor que um centavo")}
		}
		if len(amount) > MaxAmountLength {
			return &FieldError{ID: TagAmount, Err: errors.Wrapf(ErrInvalidAmount, "%s excede %d caracteres", amount, MaxAmountLength)}
		}
	}
	return nil
}

func validateASCII(s string) error {
	for _, c := range s {
		if c >= utf8.RuneSelf {
			return errors.Wrapf(ErrInvalidText, "%q", c)
		}
	}
	return nil
}

func validateTxID(txid string) error {
	if txid == "" || txid == DefaultTxID {
		return nil
	}
	if len(txid) > MaxTxIDLength {
		return errors.Wrapf(ErrInvalidTxID, "máximo de %d caracteres", MaxTxIDLength)
	}
	for _, c := range txid {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return errors.Wrapf(ErrInvalidTxID, "caractere %q não permitido", c)
		}
	}
	return nil
}
