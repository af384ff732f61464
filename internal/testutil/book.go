package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleBook is a short retelling of the tale used across tests.
const SampleBook = `옛날 어느 마을에 콩쥐라는 착한 아이가 살았다. 콩쥐의 어머니가 세상을 떠나자 아버지는 새어머니를 맞이하였고, 새어머니에게는 팥쥐라는 딸이 있었다.
새어머니는 콩쥐에게 나무 호미로 자갈밭을 매라고 시켰다. 호미가 부러지자 하늘에서 검은 소가 내려와 밭을 대신 갈아 주었다.
어느 날 새어머니는 밑 빠진 독에 물을 가득 채우라고 하였다. 콩쥐가 울고 있을 때 두꺼비가 나타나 깨진 구멍을 막아 주었다.
마을 원님의 잔치가 열리자 새어머니와 팥쥐는 콩쥐에게 벼 석 섬을 찧으라 하고 잔치에 갔다. 참새 떼가 날아와 벼를 찧어 주고 선녀가 옷과 꽃신을 내려 주었다.
잔치에 가던 콩쥐는 개울을 건너다 꽃신 한 짝을 잃어버렸다. 원님은 꽃신의 주인을 찾아 나섰고 마침내 콩쥐와 혼인하였다.`

// LongBook returns a book of at least n code points built by repeating
// SampleBook.
func LongBook(n int) string {
	var b strings.Builder
	for len([]rune(b.String())) < n {
		b.WriteString(SampleBook)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteBook writes text to a temporary file and returns its path.
func WriteBook(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}
