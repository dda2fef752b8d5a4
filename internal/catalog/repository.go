package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Cities
	ListCities() ([]City, error)
	GetCity(code string) (*City, error)
	CreateCity(city *City) error
	DeleteCity(code string) error

	// Route legs
	ListRouteLegs() ([]RouteLeg, error)
	GetRouteLegByID(id uuid.UUID) (*RouteLeg, error)
	GetRouteLegByPair(originCode, destCode string) (*RouteLeg, error)
	CreateRouteLeg(leg *RouteLeg) error
	UpdateRouteLeg(id uuid.UUID, updates map[string]interface{}) (*RouteLeg, error)
	DeleteRouteLeg(id uuid.UUID) error

	// Bus offerings
	ListBuses(activeOnly bool) ([]BusOffering, error)
	GetBusByID(id uuid.UUID) (*BusOffering, error)
	CreateBus(bus *BusOffering) error
	UpdateBus(id uuid.UUID, updates map[string]interface{}) (*BusOffering, error)
	DeleteBus(id uuid.UUID) error

	// Fare overrides
	GetPrice(routeLegID uuid.UUID, tier ServiceTier) (*Price, error)
	ListPrices() ([]Price, error)
	UpsertPrice(price *Price) error
	DeletePrice(routeLegID uuid.UUID, tier ServiceTier) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCities() ([]City, error) {
	var cities []City
	err := r.db.Order("name ASC").Find(&cities).Error
	return cities, err
}

func (r *repository) GetCity(code string) (*City, error) {
	var city City
	if err := r.db.Where("code = ?", code).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *repository) CreateCity(city *City) error {
	return r.db.Create(city).Error
}

func (r *repository) DeleteCity(code string) error {
	return r.db.Where("code = ?", code).Delete(&City{}).Error
}

func (r *repository) ListRouteLegs() ([]RouteLeg, error) {
	var legs []RouteLeg
	err := r.db.Order("origin_code ASC, dest_code ASC").Find(&legs).Error
	return legs, err
}

func (r *repository) GetRouteLegByID(id uuid.UUID) (*RouteLeg, error) {
	var leg RouteLeg
	if err := r.db.Where("id = ?", id).First(&leg).Error; err != nil {
		return nil, err
	}
	return &leg, nil
}

func (r *repository) GetRouteLegByPair(originCode, destCode string) (*RouteLeg, error) {
	var leg RouteLeg
	err := r.db.Where("origin_code = ? AND dest_code = ?", originCode, destCode).
		First(&leg).Error
	if err != nil {
		return nil, err
	}
	return &leg, nil
}

func (r *repository) CreateRouteLeg(leg *RouteLeg) error {
	return r.db.Create(leg).Error
}

func (r *repository) UpdateRouteLeg(id uuid.UUID, updates map[string]interface{}) (*RouteLeg, error) {
	var leg RouteLeg
	if err := r.db.Where("id = ?", id).First(&leg).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&leg).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&leg).Error; err != nil {
		return nil, err
	}
	return &leg, nil
}

func (r *repository) DeleteRouteLeg(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Fare overrides hang off the leg and go with it
		if err := tx.Where("route_leg_id = ?", id).Delete(&Price{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&RouteLeg{}).Error
	})
}

func (r *repository) ListBuses(activeOnly bool) ([]BusOffering, error) {
	var buses []BusOffering
	db := r.db.Order("operator ASC")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Find(&buses).Error
	return buses, err
}

func (r *repository) GetBusByID(id uuid.UUID) (*BusOffering, error) {
	var bus BusOffering
	if err := r.db.Where("id = ?", id).First(&bus).Error; err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *repository) CreateBus(bus *BusOffering) error {
	return r.db.Create(bus).Error
}

func (r *repository) UpdateBus(id uuid.UUID, updates map[string]interface{}) (*BusOffering, error) {
	var bus BusOffering
	if err := r.db.Where("id = ?", id).First(&bus).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&bus).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("id = ?", id).First(&bus).Error; err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *repository) DeleteBus(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&BusOffering{}).Error
}

func (r *repository) GetPrice(routeLegID uuid.UUID, tier ServiceTier) (*Price, error) {
	var price Price
	err := r.db.Where("route_leg_id = ? AND tier = ?", routeLegID, tier).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *repository) ListPrices() ([]Price, error) {
	var prices []Price
	err := r.db.Preload("RouteLeg").Find(&prices).Error
	return prices, err
}

func (r *repository) UpsertPrice(price *Price) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "route_leg_id"}, {Name: "tier"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_per_seat", "updated_at"}),
	}).Create(price).Error
}

func (r *repository) DeletePrice(routeLegID uuid.UUID, tier ServiceTier) error {
	return r.db.Where("route_leg_id = ? AND tier = ?", routeLegID, tier).
		Delete(&Price{}).Error
}
