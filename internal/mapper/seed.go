package mapper

// defaultProfiles is the built-in broker set, used when no profile
// file is supplied.
func defaultProfiles() []*BrokerProfile {
	return []*BrokerProfile{
		{
			BrokerID: "oanda",
			SymbolMappings: map[string]string{
				"EUR_USD": "EURUSD",
				"GBP_USD": "GBPUSD",
				"USD_JPY": "USDJPY",
				"XAU_USD": "XAUUSD",
			},
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z]{3})_([A-Z]{3})$`, Template: "$1$2"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006-01-02T15:04:05Z",
			},
		},
		{
			BrokerID: "binance",
			SymbolMappings: map[string]string{
				"BTCUSDT": "BTCUSD",
				"ETHUSDT": "ETHUSD",
				"SOLUSDT": "SOLUSD",
				"BNBUSDT": "BNBUSD",
			},
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)USDT$`, Template: "${1}USD"},
				{Pattern: `^([A-Z0-9]+)BUSD$`, Template: "${1}USD"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006-01-02 15:04:05",
			},
		},
		{
			BrokerID: "fxcm",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z]{3})/([A-Z]{3})$`, Template: "$1$2"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "01/02/2006 15:04",
			},
		},
		{
			BrokerID: "pepperstone",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)\.(M|PRO|ECN|RAW)$`, Template: "$1"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006.01.02 15:04:05",
			},
		},
		{
			BrokerID: "xm",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)(MICRO|MINI)$`, Template: "$1"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ";",
				DateFormat: "02.01.2006 15:04",
			},
		},
		{
			BrokerID: "ibkr",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z]{3})\.([A-Z]{3})$`, Template: "$1$2"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "20060102;150405",
				Columns: map[string][]string{
					"symbol":      {"symbol", "underlying"},
					"lots":        {"quantity"},
					"entry_price": {"t. price", "trade price"},
				},
			},
		},
		{
			BrokerID: "mt4_generic",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)[._-](M|PRO|ECN|RAW|STP|C|I|S)$`, Template: "$1"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006.01.02 15:04:05",
			},
		},
		{
			BrokerID: "mt5_generic",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)[._-](M|PRO|ECN|RAW|STP|C|I|S)$`, Template: "$1"},
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006.01.02 15:04:05",
			},
		},
		{
			BrokerID: "kite",
			SymbolPatterns: []PatternRule{
				{Pattern: `^([A-Z0-9]+)-EQ$`, Template: "$1"},
			},
			LotSizeRule: map[string]float64{
				"stock": 1,
			},
			CSVFormat: &CSVFormat{
				Delimiter:  ",",
				DateFormat: "2006-01-02",
			},
		},
		{
			BrokerID: "generic",
			CSVFormat: &CSVFormat{
				Delimiter: ",",
			},
		},
	}
}
