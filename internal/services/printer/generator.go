package printer

import (
	"bytes"
	"fmt"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// SheetData is everything a compatibility pick sheet needs
type SheetData struct {
	Equipment models.Equipment
	Parts     []compat.RankedPart
}

// GeneratePickSheetPDF renders the ranked compatible parts of one
// piece of equipment as a printable A4 sheet. Each row carries a QR
// code encoding the item's SKU so the part can be scanned at the
// shelf.
func GeneratePickSheetPDF(data SheetData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Compatible Parts Pick Sheet", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Equipment: %s", data.Equipment.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%s %s", data.Equipment.Manufacturer, data.Equipment.Model), "", 1, "L", false, 0, "")
	if data.Equipment.SerialNumber != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Serial: %s", data.Equipment.SerialNumber), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(data.Parts) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 8, "No compatible parts on record.", "", 1, "L", false, 0, "")
	}

	const rowH = 26.0
	const qrSize = 22.0

	pdf.SetFont("Arial", "", 10)
	for i, part := range data.Parts {
		item := part.Item

		y := pdf.GetY()
		x := 15.0

		// QR with the SKU (name as fallback for items without one)
		code := item.SKU
		if code == "" {
			code = item.Name
		}
		qrPng, err := qrcode.Encode(code, qrcode.Low, 256)
		if err != nil {
			return nil, err
		}
		imgName := fmt.Sprintf("qr_%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPng))
		pdf.ImageOptions(imgName, x, y+2, qrSize, qrSize, false, opts, 0, "")

		// Text block to the right of the QR
		textX := x + qrSize + 5
		pdf.SetXY(textX, y+2)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 5, item.Name, "", 1, "L", false, 0, "")

		pdf.SetX(textX)
		pdf.SetFont("Arial", "", 9)
		line := fmt.Sprintf("SKU: %s", item.SKU)
		if item.Location != "" {
			line += fmt.Sprintf("   Location: %s", item.Location)
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")

		pdf.SetX(textX)
		stock := "OUT OF STOCK"
		if part.IsInStock {
			stock = fmt.Sprintf("In stock: %d", item.QuantityOnHand)
			if part.IsLowStock {
				stock += " (low)"
			}
		}
		source := "direct link"
		if part.MatchType == compat.MatchSourceRule && part.RuleLabel != nil {
			source = "rule: " + *part.RuleLabel
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("%s   Match: %s", stock, source), "", 1, "L", false, 0, "")

		pdf.SetY(y + rowH)
		pdf.Line(15, y+rowH-2, 195, y+rowH-2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
