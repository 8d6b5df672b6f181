package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
// In tests you can replace them with stubs to avoid touching the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// maxImageSize caps pictures attached to a recipe.
const maxImageSize = 5 << 20

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. When stdin is not a terminal (piped input) the password is
// read as a plain line from reader instead.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	lines, err := GetLines(reader, prompt, w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetLines prints a prompt to w and collects raw lines until an empty line
// or EOF. Only the line terminator is stripped; validation and parsing are
// left to the caller.
func GetLines(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return nil, err
	}

	lines := make([]string, 0)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return lines, nil
}

// ParseIngredients turns "name; quantity" lines into ingredients. A line
// without a separator is reported with its 1-based position.
func ParseIngredients(lines []string) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(lines))
	for i, l := range lines {
		name, qty, ok := strings.Cut(l, ";")
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %d must look like \"name; quantity\"", models.ErrValidation, i+1)
		}
		out = append(out, models.Ingredient{Name: strings.TrimSpace(name), Quantity: strings.TrimSpace(qty)})
	}
	return out, nil
}

// ReadImage loads a picture from disk and sniffs its MIME type. Files that
// are not images are rejected.
func ReadImage(path string) (models.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.ImageFile{}, err
	}
	if info.Size() > maxImageSize {
		return models.ImageFile{}, fmt.Errorf("%w: %s is larger than %d bytes", models.ErrValidation, path, maxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.ImageFile{}, err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return models.ImageFile{}, fmt.Errorf("%w: %s is not an image (%s)", models.ErrValidation, path, mime)
	}
	return models.ImageFile{MimeType: mime, Data: data}, nil
}
