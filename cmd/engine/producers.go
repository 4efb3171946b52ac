package main

import (
	"fmt"
	"log"

	"internfinder-engine/internal/config"
	"internfinder-engine/internal/reconcile"
	"internfinder-engine/internal/scrape/careers"
	"internfinder-engine/internal/scrape/email"
	"internfinder-engine/internal/scrape/glassdoor"
	"internfinder-engine/internal/scrape/internshala"
	"internfinder-engine/internal/scrape/linkedin"
	"internfinder-engine/internal/scrape/util"
	"internfinder-engine/internal/scrape/wellfound"
	"internfinder-engine/internal/secrets"
)

// buildProducers assembles the enabled sources in their fixed order. Order
// matters: when two sources surface the same posting, the earlier one wins.
func buildProducers(cfg config.Config, limiter *util.HostLimiter) []reconcile.Producer {
	var producers []reconcile.Producer

	if cfg.Sources.Internshala.Enabled {
		producers = append(producers, internshala.New(limiter))
	}
	if cfg.Sources.Wellfound.Enabled {
		producers = append(producers, wellfound.New(limiter))
	}
	if cfg.Sources.Glassdoor.Enabled {
		producers = append(producers, glassdoor.New(limiter))
	}
	if cfg.Sources.Careers.Enabled {
		var companies []careers.Company
		for _, co := range cfg.Sources.Careers.Companies {
			companies = append(companies, careers.Company{Name: co.Name, URL: co.URL})
		}
		producers = append(producers, careers.New(careers.Config{Companies: companies}, limiter))
	}
	if cfg.Sources.LinkedIn.Enabled {
		pw, err := secrets.GetLinkedInPassword(cfg)
		if err != nil {
			log.Printf("[engine] linkedin disabled: %v", err)
		} else {
			producers = append(producers, linkedin.New(cfg.Sources.LinkedIn.Username, pw))
		}
	}
	if cfg.Email.Enabled {
		pw, err := secrets.GetEmailPassword(cfg)
		if err != nil {
			log.Printf("[engine] email source disabled: %v", err)
		} else {
			addr := cfg.Email.IMAPHost
			if cfg.Email.IMAPPort > 0 {
				addr = fmt.Sprintf("%s:%d", cfg.Email.IMAPHost, cfg.Email.IMAPPort)
			}
			producers = append(producers, email.New(email.Config{
				Addr:     addr,
				Username: cfg.Email.Username,
				Password: pw,
				Mailbox:  cfg.Email.Mailbox,
				FromAny:  cfg.Email.FromAny,
				MaxMsgs:  cfg.Email.MaxMessages,
			}))
		}
	}

	return producers
}
