package common

const (
	KEY_PRICE_HISTORY = "price_history:%s:%s"
)

const (
	SOURCE_MOEX  = "MOEX"
	SOURCE_YAHOO = "YAHOO"
)

func GetSourceList() []string {
	return []string{
		SOURCE_MOEX,
		SOURCE_YAHOO,
	}
}
