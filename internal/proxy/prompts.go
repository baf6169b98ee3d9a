package proxy

// 固定提示块。占位符保护规则无条件追加；术语抽取规则仅在启用术语表
// 且输入超过 5 个字符时追加。文本逐字保持，不要改动。

const translationRules = "\n\n【Translation Rules】:\n" +
	"1. 🛑 PRESERVE TAGS: You will see tags like '[T_0]', '[T_1]'.\n" +
	"   - These replace newlines or code. Keep them EXACTLY as is.\n" +
	"   - Input:  \"Hello [T_0] World\"\n" +
	"   - Output: \"你好 [T_0] 世界\"\n" +
	"2. 🛑 NO CLEANUP: Do NOT remove the tags.\n" +
	"3. 🔰 TERM CODES: Keep 'Z[A-Z]{2}Z' (e.g., 'ZMCZ') codes exactly as is.\n" +
	"4. Translate the text BETWEEN the tags naturally.\n" +
	"5. Output ONLY the translated result.\n"

const termExtractionRules = "\n【Term Extraction】:\n" +
	"1. Wrap translation in <tl>...</tl>.\n" +
	"2. If you find Proper Nouns (Names) NOT in glossary, append <tm>Src=Trgt</tm> AFTER the translation.\n" +
	"3. Keep <tm> tags OUTSIDE of <tl> tags.\n"
