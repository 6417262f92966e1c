// ./main.go
package main

import (
	"github.com/xkilldash9x/pomkit/cmd"
)

func main() {
	cmd.Execute()
}
