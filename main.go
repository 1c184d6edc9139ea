package main

import "github.com/ShieldCI/laravel-sub000/cmd"

func main() {
	cmd.Execute()
}
