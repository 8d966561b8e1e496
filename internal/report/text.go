package report

import (
	"io"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/utils"
)

type jsonWriter struct{}

func (jsonWriter) Format() string      { return "json" }
func (jsonWriter) Extension() string   { return ".json" }
func (jsonWriter) ContentType() string { return "application/json" }

func (jsonWriter) Write(w io.Writer, out *analysis.Output) error {
	b, err := utils.PrettyJSON(out)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

type markdownWriter struct{}

func (markdownWriter) Format() string      { return "md" }
func (markdownWriter) Extension() string   { return ".md" }
func (markdownWriter) ContentType() string { return "text/markdown; charset=utf-8" }

func (markdownWriter) Write(w io.Writer, out *analysis.Output) error {
	_, err := io.WriteString(w, out.Markdown())
	return err
}
