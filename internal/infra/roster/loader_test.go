package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

const employeesJSON = `{
  "employees": [
    {"name": "Alice", "email": "A@x.com"},
    {"name": "Bob", "email": "b@x.com"}
  ],
  "hrBoard": {
    "hr": [{"name": "Helen", "email": "hr@x.com"}, {"name": "Helen", "email": "HR@x.com"}],
    "board": [{"name": "Boris", "email": "board@x.com"}, {"name": "No Email"}]
  }
}`

const employeesYAML = `
employees:
  - name: Alice
    email: a@x.com
hrBoard:
  hr:
    - name: Helen
      email: hr@x.com
  board: []
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoaderJSON(t *testing.T) {
	l := NewFileLoader(writeFile(t, "employees.json", employeesJSON))

	r, err := l.Roster(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"hr@x.com"}, r.HREmails())
	assert.Equal(t, []string{"board@x.com"}, r.BoardEmails())

	role, err := entity.ResolveRole("a@x.com", r)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, role)
}

func TestFileLoaderYAML(t *testing.T) {
	l := NewFileLoader(writeFile(t, "employees.yaml", employeesYAML))

	r, err := l.Roster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"hr@x.com"}, r.HREmails())
	assert.Empty(t, r.BoardEmails())
}

func TestFileLoaderReloadsOnChange(t *testing.T) {
	path := writeFile(t, "employees.json", `{"employees":[{"email":"a@x.com"}]}`)
	l := NewFileLoader(path)

	r, err := l.Roster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, r.HREmails())

	require.NoError(t, os.WriteFile(path, []byte(employeesJSON), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	r, err = l.Roster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"hr@x.com"}, r.HREmails())
}

func TestFileLoaderErrors(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.json")).Roster(context.Background())
	assert.Error(t, err)

	_, err = NewFileLoader(writeFile(t, "employees.json", "{not json")).Roster(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employees.json")
}
