package main

import "github.com/ValentinKolb/localdata/cmd"

func main() {
	cmd.Execute()
}
