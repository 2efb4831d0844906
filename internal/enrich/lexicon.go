package enrich

// Lexicon holds the immutable lookup tables the enricher is built from.
// Tables are injected at construction time so tests can substitute smaller
// fixtures; the enricher never mutates them.
type Lexicon struct {
	// Tickers is the set of known instrument symbols, uppercase.
	Tickers map[string]bool
	// CoinNames maps full coin names (lowercase) to their ticker.
	CoinNames map[string]string
	// TickerContext are words that disambiguate a bare short ticker
	// mention from ordinary prose.
	TickerContext map[string]bool

	People    []string
	Companies []string
	Protocols []string

	// CaseSensitiveCompanies are brand names that collide with common
	// words and must match in their capitalized form only.
	CaseSensitiveCompanies map[string]bool
	// AmbiguousProtocols maps protocol names with common-word meaning to
	// the context words (network, chain, ...) required after the name.
	AmbiguousProtocols map[string][]string

	Positive       []string
	Negative       []string
	StrongPositive []string
	StrongNegative []string
}

// DefaultLexicon returns the production lookup tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Tickers: setOf(
			"BTC", "ETH", "SOL", "ADA", "XRP", "DOT", "DOGE", "AVAX",
			"LINK", "LTC", "MATIC", "TRX", "BNB", "SHIB", "UNI", "ATOM",
			"XLM", "XMR", "NEAR", "APT", "ARB", "OP", "SUI", "TON",
			"USDT", "USDC", "DAI", "AAVE", "MKR", "CRV", "SNX", "COMP",
			"FIL", "ICP", "HBAR", "ALGO", "VET", "INJ", "TIA", "SEI",
			"PEPE", "BONK", "WIF", "FTM", "RUNE", "KAS", "IMX", "GRT",
			"BAT", "SAND", "MANA", "ENS", "LDO", "DYDX", "GMX", "JUP",
		),
		CoinNames: map[string]string{
			"bitcoin":       "BTC",
			"ethereum":      "ETH",
			"ether":         "ETH",
			"solana":        "SOL",
			"cardano":       "ADA",
			"ripple":        "XRP",
			"polkadot":      "DOT",
			"dogecoin":      "DOGE",
			"avalanche":     "AVAX",
			"chainlink":     "LINK",
			"litecoin":      "LTC",
			"polygon":       "MATIC",
			"tron":          "TRX",
			"shiba inu":     "SHIB",
			"uniswap":       "UNI",
			"cosmos":        "ATOM",
			"stellar":       "XLM",
			"monero":        "XMR",
			"tether":        "USDT",
			"usd coin":      "USDC",
			"aave":          "AAVE",
			"filecoin":      "FIL",
			"hedera":        "HBAR",
			"algorand":      "ALGO",
			"fantom":        "FTM",
			"kaspa":         "KAS",
			"the graph":     "GRT",
			"near protocol": "NEAR",
		},
		TickerContext: setOf(
			"price", "prices", "token", "tokens", "coin", "coins",
			"buy", "buys", "sell", "sells", "trading", "trades",
			"rally", "rallies", "surge", "surges", "pump", "dump",
			"chart", "charts", "market", "markets", "holders",
			"dominance", "futures", "spot", "etf",
		),
		People: []string{
			"Satoshi Nakamoto", "Vitalik Buterin", "Michael Saylor",
			"Changpeng Zhao", "Brian Armstrong", "Sam Bankman-Fried",
			"Gary Gensler", "Elon Musk", "Jerome Powell", "Cathie Wood",
			"Jack Dorsey", "Larry Fink", "Justin Sun", "Do Kwon",
			"Arthur Hayes", "Barry Silbert", "Paolo Ardoino",
		},
		Companies: []string{
			"Binance", "Coinbase", "Kraken", "Bitfinex", "OKX", "Bybit",
			"BlackRock", "Fidelity", "Grayscale", "MicroStrategy",
			"Tesla", "PayPal", "Mastercard", "Visa", "JPMorgan",
			"Goldman Sachs", "Galaxy Digital", "Ripple Labs", "ConsenSys",
			"Chainalysis", "Circle", "Tether", "Block",
			"Animoca Brands", "Andreessen Horowitz", "Paradigm",
		},
		Protocols: []string{
			"Bitcoin", "Ethereum", "Solana", "Cardano", "Polkadot",
			"Avalanche", "Chainlink", "Uniswap", "Aave", "MakerDAO",
			"Curve", "Lido", "Arbitrum", "Optimism", "Polygon",
			"Cosmos", "Near", "Compound", "Synthetix", "Osmosis",
		},
		CaseSensitiveCompanies: setOf(
			// "Block" (Jack Dorsey's company) collides with "block
			// reward" and "blockchain"; "Circle" and "Tether" with the
			// common nouns.
			"Block", "Circle", "Tether",
		),
		AmbiguousProtocols: map[string][]string{
			// "avalanche", "near", "compound", "curve", "cosmos" and
			// "optimism" read as ordinary words without context.
			"Avalanche": {"network", "chain", "ecosystem", "blockchain", "c-chain"},
			"Near":      {"network", "chain", "ecosystem", "protocol", "blockchain"},
			"Compound":  {"network", "protocol", "finance", "governance"},
			"Curve":     {"finance", "protocol", "pools", "dao"},
			"Cosmos":    {"network", "chain", "ecosystem", "hub", "sdk"},
			"Optimism":  {"network", "chain", "ecosystem", "mainnet", "rollup"},
		},
		Positive: []string{
			"surge", "surges", "surged", "rally", "rallies", "rallied",
			"gain", "gains", "gained", "bullish", "soar", "soars",
			"soared", "jump", "jumps", "jumped", "rise", "rises", "rose",
			"climb", "climbs", "climbed", "breakout", "upgrade",
			"adoption", "approval", "approved", "partnership", "growth",
			"profit", "profits", "milestone", "success", "successful",
			"win", "wins", "record high", "all-time high", "green",
			"recover", "recovers", "recovery", "rebound", "rebounds",
		},
		Negative: []string{
			"crash", "crashes", "crashed", "plunge", "plunges",
			"plunged", "dump", "dumps", "dumped", "bearish", "drop",
			"drops", "dropped", "fall", "falls", "fell", "decline",
			"declines", "declined", "loss", "losses", "hack", "hacked",
			"exploit", "exploited", "scam", "fraud", "lawsuit", "ban",
			"banned", "fine", "fined", "fear", "panic", "selloff",
			"sell-off", "liquidation", "liquidations", "bankruptcy",
			"insolvent", "collapse", "collapsed", "red", "warning",
			"investigation", "downgrade", "rejected", "delay", "delayed",
		},
		StrongPositive: []string{
			"skyrocket", "skyrockets", "skyrocketed", "moon", "mooning",
			"parabolic", "explode", "explodes", "exploded",
			"massive gain", "massive gains", "historic high",
		},
		StrongNegative: []string{
			"catastrophic", "devastating", "bloodbath", "capitulation",
			"death spiral", "total collapse", "wipeout", "obliterated",
		},
	}
}

func setOf(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
