package main

import "github.com/ppqm/hpc-funcs/cmd"

func main() {
	cmd.Execute()
}
