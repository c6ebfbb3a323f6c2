package db

import (
	_ "embed"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var seedYAML []byte

const seedDateLayout = "2006-01-02"

// Catalogue is the demo data set loaded by Seed.
type Catalogue struct {
	Company struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Phone    string `yaml:"phone"`
		Address  string `yaml:"address"`
		City     string `yaml:"city"`
		Currency string `yaml:"currency"`
	} `yaml:"company"`
	Users []struct {
		Name  string      `yaml:"name"`
		Email string      `yaml:"email"`
		Role  models.Role `yaml:"role"`
	} `yaml:"users"`
	Products []struct {
		Name     string `yaml:"name"`
		SKU      string `yaml:"sku"`
		Price    string `yaml:"price"`
		Stock    int    `yaml:"stock"`
		Category string `yaml:"category"`
		Unit     string `yaml:"unit"`
	} `yaml:"products"`
	Clients []struct {
		Name      string `yaml:"name"`
		Address   string `yaml:"address"`
		Phone     string `yaml:"phone"`
		Balance   string `yaml:"balance"`
		LastVisit string `yaml:"last_visit"`
	} `yaml:"clients"`
	Orders []struct {
		Client string             `yaml:"client"`
		Date   string             `yaml:"date"`
		Status models.OrderStatus `yaml:"status"`
		Items  []struct {
			SKU      string `yaml:"sku"`
			Quantity int    `yaml:"quantity"`
		} `yaml:"items"`
	} `yaml:"orders"`
	Purchases []struct {
		Supplier string                `yaml:"supplier"`
		Date     string                `yaml:"date"`
		Total    string                `yaml:"total"`
		Status   models.PurchaseStatus `yaml:"status"`
		Items    string                `yaml:"items"`
	} `yaml:"purchases"`
}

// LoadCatalogue parses the embedded seed file.
func LoadCatalogue() (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(seedYAML, &c); err != nil {
		return nil, errors.Wrap(err, "parse seed.yaml")
	}
	return &c, nil
}

// SeedOptions tunes Seed.
type SeedOptions struct {
	// Password is given to every seeded user that does not exist yet.
	Password string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Seed creates profiles, permissions and the demo catalogue. It is idempotent:
// keyed rows are matched by email, SKU or name, and orders and purchases are
// only loaded into empty tables.
func Seed(conn *gorm.DB, opts SeedOptions) error {
	profileIDs, err := SeedProfiles(conn)
	if err != nil {
		return err
	}
	cat, err := LoadCatalogue()
	if err != nil {
		return err
	}
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := seedCompany(tx, cat); err != nil {
			return err
		}
		if err := seedUsers(tx, cat, profileIDs, opts); err != nil {
			return err
		}
		products, err := seedProducts(tx, cat)
		if err != nil {
			return err
		}
		clients, err := seedClients(tx, cat)
		if err != nil {
			return err
		}
		if err := seedOrders(tx, cat, clients, products); err != nil {
			return err
		}
		return seedPurchases(tx, cat)
	})
}

func seedCompany(tx *gorm.DB, cat *Catalogue) error {
	var count int64
	if err := tx.Model(&models.CompanySettings{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count company settings")
	}
	if count > 0 {
		return nil
	}
	c := cat.Company
	return errors.Wrap(tx.Create(&models.CompanySettings{
		Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address, City: c.City, Currency: c.Currency,
	}).Error, "seed company")
}

func seedUsers(tx *gorm.DB, cat *Catalogue, profileIDs map[models.Role]uint, opts SeedOptions) error {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	for _, u := range cat.Users {
		var existing models.User
		err := tx.Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(err, "lookup user %s", u.Email)
		}
		profileID, ok := profileIDs[u.Role]
		if !ok {
			return errors.Errorf("user %s has unknown role %q", u.Email, u.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
		if err != nil {
			return errors.Wrap(err, "hash seed password")
		}
		user := models.User{Email: u.Email, Name: u.Name, Password: string(hash), ProfileID: &profileID}
		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrapf(err, "seed user %s", u.Email)
		}
		logrus.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("seeded user")
	}
	return nil
}

func seedProducts(tx *gorm.DB, cat *Catalogue) (map[string]models.Product, error) {
	bySKU := make(map[string]models.Product, len(cat.Products))
	for _, p := range cat.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "product %s price", p.SKU)
		}
		product := models.Product{SKU: p.SKU}
		err = tx.Where("sku = ?", p.SKU).
			Attrs(models.Product{Name: p.Name, Price: price, Stock: p.Stock, Category: p.Category, Unit: p.Unit}).
			FirstOrCreate(&product).Error
		if err != nil {
			return nil, errors.Wrapf(err, "seed product %s", p.SKU)
		}
		bySKU[p.SKU] = product
	}
	return bySKU, nil
}

func seedClients(tx *gorm.DB, cat *Catalogue) (map[string]models.Client, error) {
	byName := make(map[string]models.Client, len(cat.Clients))
	for _, c := range cat.Clients {
		balance, err := decimal.NewFromString(c.Balance)
		if err != nil {
			return nil, errors.Wrapf(err, "client %s balance", c.Name)
		}
		attrs := models.Client{Address: c.Address, Phone: c.Phone, Balance: balance}
		if c.LastVisit != "" {
			lv, err := time.Parse(seedDateLayout, c.LastVisit)
			if err != nil {
				return nil, errors.Wrapf(err, "client %s last_visit", c.Name)
			}
			attrs.LastVisit = &lv
		}
		client := models.Client{Name: c.Name}
		if err := tx.Where("name = ?", c.Name).Attrs(attrs).FirstOrCreate(&client).Error; err != nil {
			return nil, errors.Wrapf(err, "seed client %s", c.Name)
		}
		byName[c.Name] = client
	}
	return byName, nil
}

func seedOrders(tx *gorm.DB, cat *Catalogue, clients map[string]models.Client, products map[string]models.Product) error {
	var count int64
	if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count orders")
	}
	if count > 0 {
		return nil
	}
	for _, o := range cat.Orders {
		client, ok := clients[o.Client]
		if !ok {
			return errors.Errorf("order references unknown client %q", o.Client)
		}
		date, err := time.Parse(seedDateLayout, o.Date)
		if err != nil {
			return errors.Wrapf(err, "order date for %s", o.Client)
		}
		order := models.Order{ClientID: client.ID, Date: date, Status: o.Status}
		for _, it := range o.Items {
			product, ok := products[it.SKU]
			if !ok {
				return errors.Errorf("order references unknown sku %q", it.SKU)
			}
			order.Items = append(order.Items, models.OrderItem{ProductID: product.ID, Quantity: it.Quantity, Price: product.Price})
		}
		order.Total = order.ComputeTotal()
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrapf(err, "seed order for %s", o.Client)
		}
	}
	return nil
}

func seedPurchases(tx *gorm.DB, cat *Catalogue) error {
	var count int64
	if err := tx.Model(&models.Purchase{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count purchases")
	}
	if count > 0 {
		return nil
	}
	for _, p := range cat.Purchases {
		total, err := decimal.NewFromString(p.Total)
		if err != nil {
			return errors.Wrapf(err, "purchase %s total", p.Supplier)
		}
		date, err := time.Parse(seedDateLayout, p.Date)
		if err != nil {
			return errors.Wrapf(err, "purchase %s date", p.Supplier)
		}
		purchase := models.Purchase{Supplier: p.Supplier, Date: date, Total: total, Status: p.Status, Items: p.Items}
		if err := tx.Create(&purchase).Error; err != nil {
			return errors.Wrapf(err, "seed purchase %s", p.Supplier)
		}
	}
	return nil
}
