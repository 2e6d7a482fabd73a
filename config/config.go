package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// LoadEnv carrega as variáveis de ambiente do arquivo .env, se existir.
func LoadEnv() error {
	return godotenv.Load()
}

// GetDatabaseURL retorna a URL de conexão com o banco de dados
func GetDatabaseURL() (string, error) {
	return required("DATABASE_URL")
}

// GetPortServerStart retorna a porta HTTP do servidor
func GetPortServerStart() (string, error) {
	return required("SERVER_PORT")
}

// GetJwtSecret retorna a chave usada para assinar e validar os tokens JWT
func GetJwtSecret() (string, error) {
	return required("JWT_SECRET")
}

func GetLogLevel() string {
	return withDefault("LOG_LEVEL", "info")
}

func GetCorsOrigin() string {
	return withDefault("CORS_ORIGIN", "http://localhost")
}

// GetRateLimit retorna quantas requisições por IP e rota são aceitas por janela.
func GetRateLimit() (uint64, time.Duration) {
	limit, err := strconv.ParseUint(os.Getenv("RATE_LIMIT_PER_MINUTE"), 10, 64)
	if err != nil || limit == 0 {
		limit = 60
	}
	return limit, time.Minute
}

// GetTrustedProxies lê TRUSTED_PROXIES, uma lista de IPs ou CIDRs separados
// por vírgula. Só requisições vindas desses endereços podem informar o IP do
// cliente via X-Forwarded-For.
func GetTrustedProxies() ([]netip.Prefix, error) {
	raw := os.Getenv("TRUSTED_PROXIES")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var prefixes []netip.Prefix
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, errors.Wrapf(err, "TRUSTED_PROXIES inválido: %q", item)
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, errors.Wrapf(err, "TRUSTED_PROXIES inválido: %q", item)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

// Nome e cidade exibidos em perfis PIX cadastrados sem esses campos.
func GetPixDefaultName() string {
	return os.Getenv("PIX_DEFAULT_NAME")
}

func GetPixDefaultCity() string {
	return os.Getenv("PIX_DEFAULT_CITY")
}

func required(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", errors.Errorf("%s não definida nas variáveis de ambiente", name)
	}
	return v, nil
}

func withDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
