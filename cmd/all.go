package cmd

import (
	_ "canvas-portal/cmd/account"
	_ "canvas-portal/cmd/browse"
	_ "canvas-portal/cmd/downloads"
	_ "canvas-portal/cmd/packages"
	_ "canvas-portal/cmd/root"
	_ "canvas-portal/cmd/server"
	_ "canvas-portal/cmd/template"
)
