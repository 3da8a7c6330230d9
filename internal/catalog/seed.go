package catalog

// defaultInstruments is the built-in seed catalog, used when no external
// seed file is supplied. Metals trade as currency pairs, so XAUUSD and
// XAGUSD carry the forex type with a 0.01 pip.
func defaultInstruments() []*Instrument {
	return []*Instrument{
		// Forex majors
		{Symbol: "EURUSD", DisplayName: "Euro / US Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5, Aliases: []string{"EURO", "FIBER"}},
		{Symbol: "GBPUSD", DisplayName: "British Pound / US Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5, Aliases: []string{"CABLE"}},
		{Symbol: "USDJPY", DisplayName: "US Dollar / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "USDCHF", DisplayName: "US Dollar / Swiss Franc", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "USDCAD", DisplayName: "US Dollar / Canadian Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "AUDUSD", DisplayName: "Australian Dollar / US Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5, Aliases: []string{"AUSSIE"}},
		{Symbol: "NZDUSD", DisplayName: "New Zealand Dollar / US Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5, Aliases: []string{"KIWI"}},

		// Forex crosses
		{Symbol: "EURGBP", DisplayName: "Euro / British Pound", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "EURJPY", DisplayName: "Euro / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "EURCHF", DisplayName: "Euro / Swiss Franc", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "EURAUD", DisplayName: "Euro / Australian Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "GBPJPY", DisplayName: "British Pound / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3, Aliases: []string{"GUPPY"}},
		{Symbol: "GBPCHF", DisplayName: "British Pound / Swiss Franc", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "AUDJPY", DisplayName: "Australian Dollar / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "AUDNZD", DisplayName: "Australian Dollar / New Zealand Dollar", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "NZDJPY", DisplayName: "New Zealand Dollar / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "CADJPY", DisplayName: "Canadian Dollar / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "CHFJPY", DisplayName: "Swiss Franc / Japanese Yen", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 10, ContractSize: 100000, PriceDecimals: 3},
		{Symbol: "USDZAR", DisplayName: "US Dollar / South African Rand", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},
		{Symbol: "USDMXN", DisplayName: "US Dollar / Mexican Peso", Type: TypeForex, PipOrTickSize: 0.0001, TickValue: 10, ContractSize: 100000, PriceDecimals: 5},

		// Metals (quoted as currency pairs)
		{Symbol: "XAUUSD", DisplayName: "Gold / US Dollar", Type: TypeForex, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 100, PriceDecimals: 2, Aliases: []string{"GOLD", "XAU"}},
		{Symbol: "XAGUSD", DisplayName: "Silver / US Dollar", Type: TypeForex, PipOrTickSize: 0.001, TickValue: 5, ContractSize: 5000, PriceDecimals: 3, Aliases: []string{"SILVER", "XAG"}},

		// Indices
		{Symbol: "US30", DisplayName: "Dow Jones 30", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"DJ30", "DOW", "DJIA", "WS30"}},
		{Symbol: "US500", DisplayName: "S&P 500", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"SPX500", "SP500", "SPX"}},
		{Symbol: "US100", DisplayName: "Nasdaq 100", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"NAS100", "USTEC", "NDX"}},
		{Symbol: "GER40", DisplayName: "DAX 40", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"DAX", "DE40", "GER30", "DE30"}},
		{Symbol: "UK100", DisplayName: "FTSE 100", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"FTSE", "FTSE100"}},
		{Symbol: "FRA40", DisplayName: "CAC 40", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"CAC", "CAC40", "FR40"}},
		{Symbol: "JPN225", DisplayName: "Nikkei 225", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"NIKKEI", "JP225", "NI225"}},
		{Symbol: "EU50", DisplayName: "Euro Stoxx 50", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"STOXX50", "ESTX50"}},
		{Symbol: "AUS200", DisplayName: "ASX 200", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"ASX200", "AU200"}},
		{Symbol: "HK50", DisplayName: "Hang Seng 50", Type: TypeIndex, PipOrTickSize: 1, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"HSI", "HANGSENG"}},

		// Energies
		{Symbol: "USOIL", DisplayName: "WTI Crude Oil", Type: TypeCommodity, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1000, PriceDecimals: 2, Aliases: []string{"WTI", "CL", "CRUDE", "OILUSD"}},
		{Symbol: "UKOIL", DisplayName: "Brent Crude Oil", Type: TypeCommodity, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1000, PriceDecimals: 2, Aliases: []string{"BRENT", "BCO"}},
		{Symbol: "NATGAS", DisplayName: "Natural Gas", Type: TypeCommodity, PipOrTickSize: 0.001, TickValue: 1, ContractSize: 10000, PriceDecimals: 3, Aliases: []string{"NG", "XNGUSD"}},

		// Crypto
		{Symbol: "BTCUSD", DisplayName: "Bitcoin / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"BITCOIN", "XBTUSD", "BTCUSDT"}},
		{Symbol: "ETHUSD", DisplayName: "Ethereum / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"ETHEREUM", "ETHUSDT"}},
		{Symbol: "LTCUSD", DisplayName: "Litecoin / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"LITECOIN", "LTCUSDT"}},
		{Symbol: "XRPUSD", DisplayName: "Ripple / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.0001, TickValue: 1, ContractSize: 1, PriceDecimals: 4, Aliases: []string{"RIPPLE", "XRPUSDT"}},
		{Symbol: "SOLUSD", DisplayName: "Solana / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"SOLANA", "SOLUSDT"}},
		{Symbol: "BNBUSD", DisplayName: "Binance Coin / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"BNBUSDT"}},
		{Symbol: "ADAUSD", DisplayName: "Cardano / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.0001, TickValue: 1, ContractSize: 1, PriceDecimals: 4, Aliases: []string{"CARDANO", "ADAUSDT"}},
		{Symbol: "DOGEUSD", DisplayName: "Dogecoin / US Dollar", Type: TypeCrypto, PipOrTickSize: 0.00001, TickValue: 1, ContractSize: 1, PriceDecimals: 5, Aliases: []string{"DOGECOIN", "DOGEUSDT"}},

		// Stocks
		{Symbol: "AAPL", DisplayName: "Apple Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"APPLE"}},
		{Symbol: "MSFT", DisplayName: "Microsoft Corp", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"MICROSOFT"}},
		{Symbol: "GOOGL", DisplayName: "Alphabet Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"GOOGLE", "GOOG"}},
		{Symbol: "AMZN", DisplayName: "Amazon.com Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"AMAZON"}},
		{Symbol: "TSLA", DisplayName: "Tesla Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"TESLA"}},
		{Symbol: "META", DisplayName: "Meta Platforms Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"FACEBOOK", "FB"}},
		{Symbol: "NVDA", DisplayName: "NVIDIA Corp", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"NVIDIA"}},
		{Symbol: "NFLX", DisplayName: "Netflix Inc", Type: TypeStock, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"NETFLIX"}},
		{Symbol: "INFY", DisplayName: "Infosys Ltd", Type: TypeStock, PipOrTickSize: 0.05, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"INFOSYS"}},
		{Symbol: "TCS", DisplayName: "Tata Consultancy Services Ltd", Type: TypeStock, PipOrTickSize: 0.05, TickValue: 1, ContractSize: 1, PriceDecimals: 2},
		{Symbol: "WIPRO", DisplayName: "Wipro Ltd", Type: TypeStock, PipOrTickSize: 0.05, TickValue: 1, ContractSize: 1, PriceDecimals: 2},
		{Symbol: "RELIANCE", DisplayName: "Reliance Industries Ltd", Type: TypeStock, PipOrTickSize: 0.05, TickValue: 1, ContractSize: 1, PriceDecimals: 2, Aliases: []string{"RIL"}},

		// Currency basket indicators
		{Symbol: "USDX", DisplayName: "US Dollar Index", Type: TypeForexIndicator, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1000, PriceDecimals: 3, Aliases: []string{"DXY", "DOLLARINDEX"}},
		{Symbol: "EURX", DisplayName: "Euro Currency Index", Type: TypeForexIndicator, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1000, PriceDecimals: 3},
		{Symbol: "JPYX", DisplayName: "Yen Currency Index", Type: TypeForexIndicator, PipOrTickSize: 0.01, TickValue: 1, ContractSize: 1000, PriceDecimals: 3},
	}
}
