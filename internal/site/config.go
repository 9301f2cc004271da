package site

import (
	"fmt"
	"net/url"
	"os"
)

const (
	DefaultName          = "El Mesón de Pepe"
	DefaultURL           = "https://www.elmesondepepe.com"
	DefaultLogo          = "/images/el-meson-de-pepe-key-west-logo.webp"
	DefaultGoogleMapsURL = "https://www.google.com/maps/place/El+Meson+de+Pepe/@24.559966,-81.806965,17z/data=!3m1!4b1!4m2!3m1!1s0x88d1b6ec85131299:0xa7917bf52a7a123e"
)

// Widgets are the embed settings of third-party services. Empty values
// disable the widget.
type Widgets struct {
	ReservationURL string `json:"reservationUrl,omitempty"`
	WaitlistURL    string `json:"waitlistUrl,omitempty"`
	ChatWidgetID   string `json:"chatWidgetId,omitempty"`
	AnalyticsID    string `json:"analyticsId,omitempty"`
}

type Config struct {
	Name          string
	URL           string
	Logo          string
	GoogleMapsURL string
	Widgets       Widgets
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		Name:          getenv("SITE_NAME", DefaultName),
		URL:           getenv("SITE_URL", DefaultURL),
		Logo:          getenv("SITE_LOGO", DefaultLogo),
		GoogleMapsURL: getenv("GOOGLE_MAPS_URL", DefaultGoogleMapsURL),
		Widgets: Widgets{
			ReservationURL: os.Getenv("RESERVATION_WIDGET_URL"),
			WaitlistURL:    os.Getenv("WAITLIST_WIDGET_URL"),
			ChatWidgetID:   os.Getenv("CHAT_WIDGET_ID"),
			AnalyticsID:    os.Getenv("ANALYTICS_ID"),
		},
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SITE_URL must be an absolute URL, got %q", cfg.URL)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
