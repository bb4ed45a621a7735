package scorer

// E1 definitive terms: stenter/tenter-frame phrasing, OEM brand variants, and
// spare-part nomenclature. One hit here is worth more than several process
// terms.
var e1Terms = []string{
	// Machine category.
	"stenter", "stenter machine", "stenter line", "stenter frame",
	"tenter frame", "tentering", "heat setting machine", "heat-setting line",
	"heat setting line", "ramöz", "ramoz", "ram makinesi", "rama têxtil",
	"thermofixation line", "hot flue",
	// OEM brand variants.
	"monforts", "montex", "brückner", "bruckner", "babcock", "krantz",
	"artos", "famatex", "wumag", "santex", "ilsung", "unitech texmaco",
	"harish stenter", "yamuna stenter", "tube-tex",
	// Spare-part nomenclature.
	"chain rail", "pin chain", "clip chain", "stenter chain", "stenter clip",
	"slide block", "pin plate", "pin bar", "chain lubrication",
}

// E2 strong process terms across EN/TR/PT/ES/DE/IT.
var e2Terms = []string{
	// English.
	"dyeing", "dye house", "dyehouse", "finishing", "bleaching",
	"mercerizing", "mercerising", "sanforizing", "singeing", "desizing",
	"scouring", "fabric printing", "textile printing", "fabric coating",
	"calendering", "washing range", "continuous dyeing", "pad dyeing",
	// Turkish.
	"boyahane", "boya tesisi", "terbiye", "apre", "kasar", "şardon",
	"sanfor", "emprime", "fikse", "kumaş boyama",
	// Portuguese.
	"tinturaria", "alvejamento", "mercerização", "estamparia",
	"acabamento têxtil", "beneficiamento têxtil",
	// Spanish.
	"tintorería", "teñido", "blanqueo", "mercerizado", "acabado textil",
	"estampado textil",
	// German.
	"färberei", "textilveredlung", "ausrüstung", "appretur", "bleicherei",
	"thermofixierung",
	// Italian.
	"tintoria", "finissaggio", "candeggio", "mercerizzo", "nobilitazione",
	"stamperia tessile",
}

// E3 supporting manufacturing-context terms: mill vocabulary and
// integration/expansion/investment language.
var e3Terms = []string{
	"textile mill", "weaving mill", "knitting mill", "spinning mill",
	"fabric mill", "denim mill", "towel production", "home textile",
	"vertically integrated", "integrated production", "integrated facility",
	"production capacity", "capacity expansion", "new production line",
	"plant expansion", "investment in", "modernization", "modernisation",
	"tekstil fabrikası", "dokuma", "örme kumaş", "entegre tesis", "yatırım",
	"fábrica têxtil", "planta textil", "textilfabrik",
}

// Negative signals: machinery/dealer/trading vocabulary. Presence multiplies
// all three scores by the penalty factor instead of zeroing them, so a weak
// residual signal stays visible for audit.
var negativeTerms = []string{
	"machinery manufacturer", "machine manufacturer", "machinery dealer",
	"machine dealer", "machinery supplier", "machinery trading",
	"used machinery", "second hand machinery", "spare parts supplier",
	"spare parts shop", "spare parts dealer", "machine sales",
	"trading company", "makine imalat", "makine ticaret", "yedek parça satış",
}
