package textprep

// Stopword tables are immutable, initialized once at startup, and shared
// read-only across all invocations.

var portugueseStopwords = makeSet([]string{
	"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
	"as", "até", "com", "como", "da", "das", "de", "dela", "delas", "dele",
	"deles", "depois", "do", "dos", "e", "ela", "elas", "ele", "eles", "em",
	"entre", "era", "eram", "essa", "essas", "esse", "esses", "esta", "estamos",
	"estas", "estava", "estavam", "este", "esteja", "estejam", "estejamos",
	"estes", "esteve", "estive", "estivemos", "estiver", "estivera", "estiveram",
	"estiverem", "estivermos", "estivesse", "estivessem", "estivéramos",
	"estivéssemos", "estou", "está", "estávamos", "estão", "eu", "foi", "fomos",
	"for", "fora", "foram", "forem", "formos", "fosse", "fossem", "fui",
	"fôramos", "fôssemos", "haja", "hajam", "hajamos", "havemos", "havia",
	"hei", "houve", "houvemos", "houver", "houvera", "houveram", "houverei",
	"houverem", "houveremos", "houveria", "houveriam", "houveríamos", "houvermos",
	"houvesse", "houvessem", "houvéramos", "houvéssemos", "há", "hão", "isso",
	"isto", "já", "lhe", "lhes", "mais", "mas", "me", "mesmo", "meu", "meus",
	"minha", "minhas", "muito", "na", "nas", "nem", "no", "nos", "nossa",
	"nossas", "nosso", "nossos", "num", "numa", "não", "nós", "o", "os",
	"ou", "para", "pela", "pelas", "pelo", "pelos", "por", "qual", "quando",
	"que", "quem", "se", "seja", "sejam", "sejamos", "sem", "ser", "seria",
	"seriam", "será", "serão", "seríamos", "seu", "seus", "só", "sua", "suas",
	"são", "também", "te", "tem", "temos", "tenha", "tenham", "tenhamos",
	"tenho", "ter", "terei", "teremos", "teria", "teriam", "teríamos", "teu",
	"teus", "teve", "tinha", "tinham", "tive", "tivemos", "tiver", "tivera",
	"tiveram", "tiverem", "tivermos", "tivesse", "tivessem", "tivéramos",
	"tivéssemos", "tu", "tua", "tuas", "tém", "tínhamos", "um", "uma", "você",
	"vocês", "vos", "à", "às", "éramos",
})

var englishStopwords = makeSet([]string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "did", "do",
	"does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is",
	"it", "its", "itself", "just", "me", "more", "most", "my", "myself",
	"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "ourselves", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their", "theirs",
	"them", "themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "you", "your", "yours", "yourself", "yourselves",
})

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// stopwordsFor resolves a language label to its stopword set. Unknown
// languages fall back to Portuguese, the default document language.
func stopwordsFor(language string) map[string]struct{} {
	switch language {
	case LangEnglish:
		return englishStopwords
	default:
		return portugueseStopwords
	}
}
