package main

import "github.com/treyfatech/sitecms/cmd"

func main() {
	cmd.Execute()
}
