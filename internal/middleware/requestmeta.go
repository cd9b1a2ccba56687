package middleware

import (
	"net"
	"strconv"
	"strings"

	"github.com/Roisfaozi/gas.to/internal/handlers"
	"github.com/Roisfaozi/gas.to/internal/visitor"
	"github.com/danielgtaylor/huma/v2"
)

// RequestMeta captures client IP, user-agent, referrer, language, the
// authenticated viewer, and the client-reported fingerprint hints into
// the request context so handlers never touch transport headers.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:       clientIP(ctx),
			UserAgent:      ctx.Header("User-Agent"),
			Referer:        ctx.Header("Referer"),
			AcceptLanguage: ctx.Header("Accept-Language"),
			ViewerID:       ctx.Header("X-User-ID"),
			Signals:        extractSignals(ctx),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// extractSignals reads the optional X-Client-* hints browsers attach
// for visitor resolution. Absent hints leave zero values; the
// fingerprint still works, it just discriminates less.
func extractSignals(ctx huma.Context) visitor.Signals {
	signals := visitor.Signals{
		UserAgent:  ctx.Header("User-Agent"),
		Language:   firstLanguage(ctx.Header("Accept-Language")),
		Platform:   ctx.Header("X-Client-Platform"),
		Timezone:   ctx.Header("X-Client-Timezone"),
		CanvasHash: ctx.Header("X-Client-Canvas-Hash"),
	}

	signals.ScreenWidth, signals.ScreenHeight, signals.ScreenDepth = parseScreen(ctx.Header("X-Client-Screen"))
	signals.TouchSupport = ctx.Header("X-Client-Touch") == "1"

	if plugins := ctx.Header("X-Client-Plugins"); plugins != "" {
		signals.Plugins = strings.Split(plugins, ",")
	}

	return signals
}

// parseScreen reads a "WxHxD" triple, e.g. "1920x1080x24".
func parseScreen(raw string) (width, height, depth int) {
	parts := strings.Split(raw, "x")
	if len(parts) != 3 {
		return 0, 0, 0
	}

	width, _ = strconv.Atoi(parts[0])
	height, _ = strconv.Atoi(parts[1])
	depth, _ = strconv.Atoi(parts[2])

	return width, height, depth
}

func firstLanguage(acceptLanguage string) string {
	lang, _, _ := strings.Cut(acceptLanguage, ",")

	return strings.TrimSpace(lang)
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
