package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(ctx)
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", initErr)
	}
	return translator, nil
}

// Result is a translated shader stage.
type Result struct {
	Code string
	// Names maps each variable of the input source to its name in Code.
	Names map[string]string
}

// Translate converts a GLSL ES 3.00 stage ("vertex" or "fragment") to desktop
// GLSL 4.10, or to ESSL when gles is set.
func Translate(ctx context.Context, source, stage string, gles bool) (*Result, error) {
	t, err := GetTranslator(ctx)
	if err != nil {
		return nil, err
	}
	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	res := &Result{Code: out.Code, Names: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		res.Names[name] = v.MappedName
	}
	return res, nil
}
