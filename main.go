package main

import "github.com/exercise-tracker/apiserver/cmd"

func main() {
	cmd.Execute()
}
