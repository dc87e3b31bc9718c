// Command flowpress runs a blog site with the default views. Deployments
// that want custom templates import the flowpress package directly and
// supply their own ViewFuncs.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	flowpress "github.com/futureflow/flowpress"
	"github.com/futureflow/flowpress/views"
)

func main() {
	cfg := flowpress.Config{
		SiteURL:       flowpress.EnvOr("SITE_URL", "http://localhost:3000"),
		Addr:          flowpress.EnvOr("ADDR", ":3000"),
		DatabasePath:  flowpress.EnvOr("DATABASE_PATH", "data/site.db"),
		SnapshotDir:   flowpress.EnvOr("SNAPSHOT_DIR", "data/snapshots"),
		UploadsDir:    flowpress.EnvOr("UPLOADS_DIR", "public/uploads"),
		AdminEmail:    flowpress.MustEnv("ADMIN_EMAIL"),
		AdminPassword: flowpress.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: flowpress.MustEnv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}

	app := flowpress.New(cfg, views.Funcs())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		if err := app.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
		os.Exit(0)
	}()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
