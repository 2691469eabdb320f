package pipeline

import (
	"bytes"
	"io"
	"os/exec"
	"testing"
)

func TestRunPipe(t *testing.T) {
	var logged bytes.Buffer
	err := runPipe(exec.Command("sh", "-c", "echo pileup >&2"), exec.Command("cat", "-"), &logged)
	if err != nil {
		t.Fatalf("expected clean pipe to succeed, got %v", err)
	}
	if !bytes.Contains(logged.Bytes(), []byte("pileup")) {
		t.Error("producer stderr should reach the run log")
	}
}

func TestRunPipeProducerFailure(t *testing.T) {
	producer := exec.Command("sh", "-c", "exit 3")
	consumer := exec.Command("cat", "-")
	err := runPipe(producer, consumer, io.Discard)
	if err == nil {
		t.Fatal("expected error when the producer exits non-zero")
	}
	// the consumer must be reaped before runPipe returns, or it lingers as
	// an orphan holding the pipe open
	if consumer.ProcessState == nil {
		t.Error("consumer was not waited on after producer failure")
	}
}
