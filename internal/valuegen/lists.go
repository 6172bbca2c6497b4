package valuegen

var insuranceProviders = []string{
	"BCBS", "AETNA", "CIGNA", "HUMANA", "KAISER", "ANTHEM", "UNITEDHEALTH",
	"MOLINA", "CENTENE", "WELLCARE", "HIGHMARK", "CAPITAL BLUE CROSS",
	"INDEPENDENCE BLUE CROSS", "GEISINGER", "UPMC HEALTH PLAN",
}

var counties = []string{
	"CUMBERLAND", "DAUPHIN", "YORK", "LANCASTER", "PERRY", "LEBANON",
	"FRANKLIN", "ADAMS", "ALLEGHENY", "PHILADELPHIA", "CENTRE", "BERKS",
}

var unitKinds = []string{"APT", "UNIT", "STE", "FL", "RM"}
