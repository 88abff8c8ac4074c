package main

import "spamcheck/internal/app"

func main() {
	app.Main()
}
