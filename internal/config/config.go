package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"freshmarket.db"`

	Gateway Gateway `envPrefix:"GATEWAY_"`
	Notify  Notify  `envPrefix:"NOTIFY_"`
	Routes  Routes  `envPrefix:"ROUTE_"`
}

// Gateway holds the payment gateway credentials. ShopID and SecretKey are
// both required for payment-session creation; absence of either fails closed
// with a generic error, without telling the caller which one is missing.
type Gateway struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.yookassa.ru"`
	ShopID     string `env:"SHOP_ID"`
	SecretKey  string `env:"SECRET_KEY"`
	ReturnURL  string `env:"RETURN_URL"`
}

type Notify struct {
	URL   string `env:"URL"`
	Token string `env:"TOKEN"`
}

// Routes are the two navigation targets the checkout state machine enters
// after a terminal payment outcome.
type Routes struct {
	Success string `env:"SUCCESS" envDefault:"/order/success"`
	Failure string `env:"FAILURE" envDefault:"/order/failure"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// HasGatewayCredentials reports whether both gateway credentials are set.
// Callers must not reveal which one is absent.
func (c *Config) HasGatewayCredentials() bool {
	return c.Gateway.ShopID != "" && c.Gateway.SecretKey != ""
}

// HasNotifyCredentials reports whether the notification channel is configured.
func (c *Config) HasNotifyCredentials() bool {
	return c.Notify.URL != ""
}
