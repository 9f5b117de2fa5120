package pattern

import (
	"strings"
	"testing"

	"github.com/greenlightd/greenlight/internal/model"
)

func BenchmarkClassify_CleanSQL(b *testing.B) {
	v := NewValidator()
	code := "UPDATE users SET last_seen = CURRENT_TIMESTAMP WHERE id = 42;"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Classify(code, model.KindSQL)
	}
}

func BenchmarkClassify_BlockedSQL(b *testing.B) {
	v := NewValidator()
	code := "DROP TABLE users;"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Classify(code, model.KindSQL)
	}
}

func BenchmarkClassify_LargeStatement(b *testing.B) {
	v := NewValidator()
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("UPDATE t SET v = v + 1 WHERE id = 1; ")
	}
	code := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Classify(code, model.KindSQL)
	}
}
