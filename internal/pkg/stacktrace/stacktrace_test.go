package stacktrace

import (
	"reflect"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/onboard/internal/otp/usecase.(*Usecase).Verify(...)
	/src/onboard/internal/otp/usecase/verify.go:42 +0x1c
main.main()
	/src/onboard/main.go:10 +0x25
`)

	got := InternalPaths(stack)
	want := []string{"internal/otp/usecase/verify.go:42"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InternalPaths() = %#v, want %#v", got, want)
	}
}
