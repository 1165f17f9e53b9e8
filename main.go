package main

import "chantierpro/cmd/app"

func main() {
	app.GetApp().LetsGo()
}
