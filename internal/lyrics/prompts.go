package lyrics

import "fmt"

const (
	lyricsMaxTokens  = 2000
	similarMaxTokens = 1000
)

func lyricsPrompt(song string) string {
	return fmt.Sprintf(`Search the web for the complete lyrics of the song "%s".

Respond using exactly two tagged sections and nothing else:
<LYRICS>
the complete lyrics, verbatim
</LYRICS>
<MEANING>
what the lyrics mean, based on interpretations you find online or, if none exist, your own analysis of the lyrics
</MEANING>

It is of utmost importance that you ABSOLUTELY DO NOT hallucinate or make up lyrics. If you cannot find the lyrics, or they seem incomplete, write "%s" inside both sections. If the song name is "Unable to Find Song", write "Invalid Input" inside both sections.
Do not add any commentary, citations or text outside the two sections.`, song, UnavailableReply)
}

func similarPrompt(song string) string {
	return fmt.Sprintf(`Search the web and find 5 to 10 songs that are similar to "%s" in theme and meaning.

Respond with a single tagged section and nothing else:
<SIMILAR>
1. <title> - <artist>: <one sentence on why it is similar>
2. <title> - <artist>: <one sentence on why it is similar>
</SIMILAR>

Put one song per numbered line. If you cannot find any similar songs, write "%s" inside the section.
Do not add any commentary, citations or text outside the section.`, song, NoSimilarReply)
}
