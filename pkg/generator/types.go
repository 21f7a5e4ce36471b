package generator

const (
	// DefaultModel は画像編集に使う Gemini のモデル名です。
	DefaultModel = "gemini-2.5-flash-image"

	// NailOverlayInstruction は2枚の画像の後ろに付ける固定の指示文です。
	NailOverlayInstruction = "Use the first image as the base. " +
		"Overlay the nail design from the second image onto the nails visible in the first image. " +
		"Preserve the original hand, skin tone, and background. " +
		"The result must be only the final edited image."

	// SafetyBlockedMessage はセーフティフィルタで止められたときに利用者へ返す文言です。
	SafetyBlockedMessage = "image generation was blocked by the safety filter. Try different images."
	// GenerationFailedMessage はそれ以外の理由で画像が得られなかったときの文言です。
	GenerationFailedMessage = "the AI failed to generate an image. Please try again."
	// InvalidImageMessage は base64 がデコードできないときの文言です。
	InvalidImageMessage = "invalid image data"
)

// responseModalityImage は画像のみを返させるためのモダリティ指定です。
const responseModalityImage = "IMAGE"

// safetyFinishReasons は利用者にセーフティブロックとして伝える終了理由です。
var safetyFinishReasons = map[string]struct{}{
	"SAFETY":             {},
	"IMAGE_SAFETY":       {},
	"PROHIBITED_CONTENT": {},
	"BLOCKLIST":          {},
	"SPII":               {},
}

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data         []byte
	MimeType     string
	FinishReason string
}
