package pix

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// Field é um campo TLV decodificado.
type Field struct {
	ID    string
	Value string
}

// ParseFields decodifica uma sequência plana de campos TLV. Templates
// aninhados (26, 62) voltam como valor bruto e podem ser decodificados de novo.
func ParseFields(s string) ([]Field, error) {
	r := []rune(s)
	fields := make([]Field, 0, 16)
	for i := 0; i < len(r); {
		if len(r)-i < 4 {
			return nil, errors.Wrapf(ErrMalformedTLV, "cabeçalho truncado na posição %d", i)
		}
		id := string(r[i : i+2])
		rawLen := string(r[i+2 : i+4])
		if !isDigits(id) || !isDigits(rawLen) {
			return nil, errors.Wrapf(ErrMalformedTLV, "cabeçalho inválido %q na posição %d", id+rawLen, i)
		}
		n, _ := strconv.Atoi(rawLen)
		start := i + 4
		if start+n > len(r) {
			return nil, &FieldError{ID: id, Err: errors.Wrapf(ErrMalformedTLV, "tamanho %d ultrapassa o fim", n)}
		}
		fields = append(fields, Field{ID: id, Value: string(r[start : start+n])})
		i = start + n
	}
	return fields, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// VerifyChecksum confere o CRC16 dos últimos 4 caracteres contra o restante do código.
func VerifyChecksum(code string) error {
	if len(code) < len(CRCHeader)+4 || code[len(code)-8:len(code)-4] != CRCHeader {
		return ErrMissingCRC
	}
	want := strings.ToUpper(code[len(code)-4:])
	got := CRC16(code[:len(code)-4])
	if got != want {
		return errors.Wrapf(ErrChecksumMismatch, "esperado %s, recebido %s", got, want)
	}
	return nil
}

// Decode verifica e lê um código PIX estático, devolvendo os dados do recebedor.
func Decode(code string) (PixData, error) {
	code = strings.TrimSpace(code)
	if err := VerifyChecksum(code); err != nil {
		return PixData{}, err
	}
	fields, err := ParseFields(code)
	if err != nil {
		return PixData{}, err
	}
	if len(fields) == 0 || fields[0].ID != TagPayloadFormat || fields[0].Value != PayloadFormat {
		return PixData{}, ErrUnsupportedFormat
	}

	var (
		data  PixData
		found bool
	)
	for _, f := range fields[1:] {
		switch {
		case isMerchantAccountTag(f.ID):
			if found {
				continue
			}
			key, ok, err := pixKey(f)
			if err != nil {
				return PixData{}, err
			}
			if ok {
				data.Key = key
				found = true
			}
		case f.ID == TagAmount:
			amount, err := strconv.ParseFloat(f.Value, 64)
			if err != nil || amount < 0 {
				return PixData{}, &FieldError{ID: f.ID, Err: ErrInvalidAmount}
			}
			data.Amount = amount
		case f.ID == TagMerchantName:
			data.Name = f.Value
		case f.ID == TagMerchantCity:
			data.City = f.Value
		case f.ID == TagAdditionalData:
			sub, err := ParseFields(f.Value)
			if err != nil {
				return PixData{}, &FieldError{ID: f.ID, Err: err}
			}
			for _, s := range sub {
				if s.ID == TagTxID {
					data.TxID = s.Value
				}
			}
		}
	}
	if !found {
		return PixData{}, ErrNotPix
	}
	return data, nil
}

// contas de recebedor ocupam as tags 26 a 51
func isMerchantAccountTag(id string) bool {
	n, err := strconv.Atoi(id)
	return err == nil && n >= 26 && n <= 51
}

func pixKey(f Field) (string, bool, error) {
	sub, err := ParseFields(f.Value)
	if err != nil {
		return "", false, &FieldError{ID: f.ID, Err: err}
	}
	var (
		key   string
		isPix bool
	)
	for _, s := range sub {
		switch s.ID {
		case TagGUI:
			isPix = strings.EqualFold(s.Value, GUI)
		case TagKey:
			key = s.Value
		}
	}
	return key, isPix, nil
}
