package main

import "windbooks_backend/internal/app"

func main() {
	app.Run()
}
