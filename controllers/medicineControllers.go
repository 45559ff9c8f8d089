package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

// GetAllMedicines lists the catalog ordered by name
func GetAllMedicines(c *gin.Context) {
	var medicines []models.Medicine
	if err := configuration.DB.Order("name ASC").Find(&medicines).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil data obat", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    medicines,
	})
}

// GetMedicineByID returns one catalog entry
func GetMedicineByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID obat tidak valid"))
		return
	}

	var medicine models.Medicine
	if err := configuration.DB.First(&medicine, id).Error; err != nil {
		respondError(c, services.NotFoundError("Obat tidak ditemukan"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    medicine,
	})
}

type medicineInput struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
	Unit  string `json:"unit"`
	Price int    `json:"price"`
}

// CreateMedicine adds a catalog entry. The name is a soft-unique business
// key: a duplicate (case-insensitive) is rejected rather than silently added.
func CreateMedicine(c *gin.Context) {
	var input medicineInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}
	if input.Name == "" || input.Unit == "" || input.Price <= 0 {
		respondError(c, services.ValidationError("Nama, satuan, dan harga harus diisi"))
		return
	}
	if input.Stock < 0 {
		respondError(c, services.ValidationError("Stok tidak boleh negatif"))
		return
	}

	var count int64
	if err := configuration.DB.Model(&models.Medicine{}).
		Where("LOWER(name) = LOWER(?)", input.Name).Count(&count).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat menambahkan obat", err))
		return
	}
	if count > 0 {
		respondError(c, services.ConflictError("Obat dengan nama tersebut sudah terdaftar"))
		return
	}

	medicine := models.Medicine{
		Name:  input.Name,
		Stock: input.Stock,
		Unit:  input.Unit,
		Price: input.Price,
	}
	if err := configuration.DB.Create(&medicine).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat menambahkan obat", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Obat berhasil ditambahkan",
		"data":    medicine,
	})
}

// UpdateMedicine updates a catalog entry, including manual restock
func UpdateMedicine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID obat tidak valid"))
		return
	}

	var medicine models.Medicine
	if err := configuration.DB.First(&medicine, id).Error; err != nil {
		respondError(c, services.NotFoundError("Obat tidak ditemukan"))
		return
	}

	var input medicineInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}
	if input.Name == "" || input.Unit == "" || input.Price <= 0 {
		respondError(c, services.ValidationError("Nama, satuan, dan harga harus diisi"))
		return
	}
	if input.Stock < 0 {
		respondError(c, services.ValidationError("Stok tidak boleh negatif"))
		return
	}

	var count int64
	if err := configuration.DB.Model(&models.Medicine{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", input.Name, medicine.ID).Count(&count).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat memperbarui data obat", err))
		return
	}
	if count > 0 {
		respondError(c, services.ConflictError("Obat dengan nama tersebut sudah terdaftar"))
		return
	}

	medicine.Name = input.Name
	medicine.Stock = input.Stock
	medicine.Unit = input.Unit
	medicine.Price = input.Price
	if err := configuration.DB.Save(&medicine).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat memperbarui data obat", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data obat berhasil diperbarui",
		"data":    medicine,
	})
}

// DeleteMedicine removes a catalog entry
func DeleteMedicine(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID obat tidak valid"))
		return
	}

	var medicine models.Medicine
	if err := configuration.DB.First(&medicine, id).Error; err != nil {
		respondError(c, services.NotFoundError("Obat tidak ditemukan"))
		return
	}

	if err := configuration.DB.Delete(&medicine).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat menghapus obat", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Obat berhasil dihapus",
	})
}
