package utils

// Storefront copy shown by the catalog page
const (
	LabelAllFacet         = "Tutti"
	LabelContactForPrice  = "Contatta per info"
	LabelChooseSize       = "Scegli una misura"
	LabelSizes            = "Misure disponibili:"
	LabelColors           = "Colori:"
	LabelImageUnavailable = "Immagine non disponibile"
	LabelNoProducts       = "Nessun prodotto trovato"
	LabelClose            = "Chiudi"
	LabelPrev             = "‹"
	LabelNext             = "›"
)
