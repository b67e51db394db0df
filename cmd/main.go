package main

import (
	"github.com/handywriterz/order-admin-svc/internal/app"
	"github.com/handywriterz/order-admin-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
