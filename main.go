package main

import "github.com/rymut/recipetool/cmd"

func main() {
	cmd.Execute()
}
