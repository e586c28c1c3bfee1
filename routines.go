package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
)

// Run starts f on a new goroutine tracked by wg. A panic in f is fatal and
// dumps the goroutine stack.
func Run(wg *sync.WaitGroup, f func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer Recover()
		f()
	}()
}

func Recover() {
	if r := recover(); r != nil {
		HandlePanic(r)
	}
}

func HandlePanic(panic any) {
	defer os.Exit(1)

	buf := make([]byte, 100000)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	log.Printf("panic: %v\n\n%s\n\n", panic, string(buf))
}

func PanicF(format string, a ...any) {
	panic(fmt.Sprintf(format, a...))
}
