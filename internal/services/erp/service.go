package erp

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/config"
	"github.com/fleetgrid/partcompat/internal/database"
	"github.com/fleetgrid/partcompat/internal/models"
)

// ImportService pulls the parts catalog from the upstream ERP into
// local inventory on a fixed interval. Imported SKUs and manufacturer
// part numbers are also registered as part identifiers so the
// alternates search can find them.
type ImportService struct {
	client   *Client
	db       *database.DB
	cfg      config.ERPConfig
	stop     chan struct{}
	lastSync time.Time
}

// NewImportService creates an import service
func NewImportService(db *database.DB, cfg config.ERPConfig) *ImportService {
	return &ImportService{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:     db,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Start begins the background import loop
func (s *ImportService) Start() {
	if s.cfg.URL == "" {
		log.Println("ERP import disabled: ERP_URL not configured")
		return
	}
	if s.cfg.OrganizationID == "" {
		log.Println("⚠️  ERP import disabled: ERP_ORG_ID not configured")
		return
	}

	go func() {
		log.Println("📡 ERP Import Service started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ ERP authentication failed: %v", err)
			return
		}

		// Initial import delay
		time.Sleep(5 * time.Second)
		s.runImport()

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runImport()
			case <-s.stop:
				log.Println("🛑 ERP Import Service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *ImportService) Stop() {
	close(s.stop)
}

// erpProduct mirrors the fields fetched from product.product. The ERP
// sends false instead of empty strings, hence the flexString type.
type erpProduct struct {
	ID            int64       `json:"id"`
	DefaultCode   flexString  `json:"default_code"`
	Barcode       flexString  `json:"barcode"`
	Name          string      `json:"name"`
	StandardPrice json.Number `json:"standard_price"`
	QtyAvailable  json.Number `json:"qty_available"`
	Active        bool        `json:"active"`
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		*f = flexString(s)
	}
	// false and null both mean "no value"
	return nil
}

func (s *ImportService) runImport() {
	log.Println("🔄 ERP: Starting catalog import...")

	started := time.Now().UTC()
	imported, err := s.importProducts()
	if err != nil {
		log.Printf("❌ ERP: import failed: %v", err)
		return
	}
	s.lastSync = started

	log.Printf("✅ ERP: import completed (%d products)", imported)
}

func (s *ImportService) importProducts() (int, error) {
	domain := []interface{}{
		[]interface{}{"active", "=", true},
	}
	// After the first full pass only fetch records touched since the
	// previous run.
	if !s.lastSync.IsZero() {
		domain = append(domain, []interface{}{
			"write_date", ">=", s.lastSync.Format("2006-01-02 15:04:05"),
		})
	}

	total := 0
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		var products []erpProduct
		err := s.client.SearchRead("product.product", domain, []string{
			"default_code", "barcode", "name", "standard_price", "qty_available", "active",
		}, pageSize, offset, &products)
		if err != nil {
			return total, err
		}
		if len(products) == 0 {
			break
		}

		for _, p := range products {
			if err := s.upsertProduct(p); err != nil {
				log.Printf("⚠️  ERP: skipping product %d: %v", p.ID, err)
				continue
			}
			total++
		}

		if len(products) < pageSize {
			break
		}
	}
	return total, nil
}

// upsertProduct creates or refreshes one inventory item keyed by the
// ERP record ID, then makes sure its SKU and barcode are registered
// as searchable identifiers.
func (s *ImportService) upsertProduct(p erpProduct) error {
	externalID := fmt.Sprintf("erp-%d", p.ID)
	externalNorm := compat.Normalize(externalID)

	qty := 0
	if v, err := p.QtyAvailable.Float64(); err == nil {
		qty = int(v)
	}
	var cost *float64
	if v, err := p.StandardPrice.Float64(); err == nil && v > 0 {
		cost = &v
	}

	var item models.InventoryItem
	result := s.db.Where("organization_id = ? AND external_id_norm = ?",
		s.cfg.OrganizationID, externalNorm).First(&item)

	item.OrganizationID = s.cfg.OrganizationID
	item.Name = p.Name
	item.SKU = string(p.DefaultCode)
	item.SKUNorm = compat.Normalize(string(p.DefaultCode))
	item.ExternalID = externalID
	item.ExternalIDNorm = externalNorm
	item.QuantityOnHand = qty
	if cost != nil {
		item.DefaultUnitCost = cost
	}

	if result.Error != nil {
		if err := s.db.Create(&item).Error; err != nil {
			return err
		}
	} else {
		if err := s.db.Save(&item).Error; err != nil {
			return err
		}
	}

	if err := s.ensureIdentifier(models.IdentifierSKU, string(p.DefaultCode), item.ID); err != nil {
		return err
	}
	return s.ensureIdentifier(models.IdentifierUPC, string(p.Barcode), item.ID)
}

func (s *ImportService) ensureIdentifier(identType, value, itemID string) error {
	norm := compat.Normalize(value)
	if norm == "" {
		return nil
	}

	var count int64
	err := s.db.Model(&models.PartIdentifier{}).
		Where("organization_id = ? AND identifier_type = ? AND value_norm = ?",
			s.cfg.OrganizationID, identType, norm).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ident := models.PartIdentifier{
		OrganizationID: s.cfg.OrganizationID,
		IdentifierType: identType,
		Value:          value,
		ValueNorm:      norm,
		ItemID:         &itemID,
	}
	return s.db.Create(&ident).Error
}
