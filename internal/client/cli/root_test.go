package cli

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/dmitrijs2005/timevault/internal/client/services"
	"github.com/stretchr/testify/assert"
)

func TestRoot_NoKeySkipsLogin(t *testing.T) {
	capturePrintln(t)
	var buf bytes.Buffer
	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	f := &fakeAuth{identityErr: services.ErrNoKey}
	a := &App{authService: f, reader: rdr("exit\n")}

	a.Root(context.Background())

	assert.Zero(t, f.loginCalls)
	assert.Contains(t, buf.String(), "run 'keygen'")
}

func TestRun_LogsInWithExistingKeyAndCloses(t *testing.T) {
	capturePrintln(t)
	stubPasswords(t, []byte("pass"))

	f := &fakeAuth{identity: addr(3), loginID: addr(3)}
	a := &App{authService: f, reader: rdr("exit\n")}

	a.Run(context.Background())

	assert.Equal(t, 1, f.loginCalls)
	assert.True(t, a.isLoggedIn())
	assert.True(t, f.closed)
}
