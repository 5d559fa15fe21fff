package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommentAppendThenList(t *testing.T) {
	root := withTasksDir(t)
	id := seedTask(t, root, "triage the backlog")

	add := newCommentCmd()
	var addOut bytes.Buffer
	add.SetOut(&addOut)
	add.SetArgs([]string{"--author", "grace", id, "looked into this, needs a spike"})
	require.NoError(t, add.Execute())
	require.Contains(t, addOut.String(), "triage the backlog")

	list := newCommentCmd()
	var listOut bytes.Buffer
	list.SetOut(&listOut)
	list.SetArgs([]string{id})
	require.NoError(t, list.Execute())
	require.Contains(t, listOut.String(), "grace")
	require.Contains(t, listOut.String(), "needs a spike")
}

func TestCommentUnknownIDErrors(t *testing.T) {
	withTasksDir(t)

	cmd := newCommentCmd()
	cmd.SetArgs([]string{"PROJ-999", "anything"})
	require.Error(t, cmd.Execute())
}
