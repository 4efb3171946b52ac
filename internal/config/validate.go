package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong or
// questionable about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.FromAny = trimList(out.Email.FromAny)
	out.Search.Query = strings.TrimSpace(out.Search.Query)
	out.Store.Backend = strings.ToLower(strings.TrimSpace(out.Store.Backend))
	out.Enrich.Provider = strings.ToLower(strings.TrimSpace(out.Enrich.Provider))

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IntervalSeconds <= 0 {
		res.addErr("polling.interval_seconds must be > 0")
	} else if out.Polling.IntervalSeconds < 60 {
		res.addWarn("polling.interval_seconds is very low (%d) and may cause rate limits.", out.Polling.IntervalSeconds)
	}

	switch out.Store.Backend {
	case "", "sqlite", "workbook":
	default:
		res.addErr("store.backend must be sqlite or workbook, got %q", out.Store.Backend)
	}

	switch out.Enrich.Provider {
	case "", "keyword", "gemini":
	default:
		res.addErr("enrich.provider must be keyword or gemini, got %q", out.Enrich.Provider)
	}

	if !out.Sources.Internshala.Enabled && !out.Sources.Wellfound.Enabled &&
		!out.Sources.Glassdoor.Enabled && !out.Sources.Careers.Enabled &&
		!out.Sources.LinkedIn.Enabled && !out.Email.Enabled {
		res.addWarn("no sources enabled; every run will find nothing.")
	}

	if out.Sources.Careers.Enabled {
		for i, co := range out.Sources.Careers.Companies {
			if strings.TrimSpace(co.URL) == "" {
				res.addErr("sources.careers.companies[%d].url is required", i)
			}
			if strings.TrimSpace(co.Name) == "" {
				res.addWarn("sources.careers.companies[%d].name is empty; the URL host will show as company", i)
			}
		}
	}

	if out.Sources.LinkedIn.Enabled && strings.TrimSpace(out.Sources.LinkedIn.Username) == "" {
		res.addErr("sources.linkedin.username is required when linkedin is enabled")
	}

	// password not required here; it lives in the keychain or env
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.FromAny) == 0 {
			res.addWarn("email.search_from_any is empty; every unread message will be scanned.")
		}
	}

	if out.Notify.Enabled {
		if strings.TrimSpace(out.Notify.SMTPHost) == "" {
			res.addErr("notify.smtp_host is required when notify.enabled=true")
		}
		if strings.TrimSpace(out.Notify.From) == "" || strings.TrimSpace(out.Notify.To) == "" {
			res.addErr("notify.from and notify.to are required when notify.enabled=true")
		}
	}

	return out, res
}
