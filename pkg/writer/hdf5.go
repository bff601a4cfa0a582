package writer

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const (
	STRLEN        = 20
	tableChunk    = 32768
	unlimitedDims = ^uint(0) // H5S_UNLIMITED is -1L
)

type EventDataHDF5 struct {
	evt_number      int32
	trigger_counter uint32
	clock_counter   uint32
	input2_counter  uint32
	truncated       int8
}

type RunInfoHDF5 struct {
	run_tag     [STRLEN]byte
	board       [STRLEN]byte
	clock_depth int32
}

type ClockHistogramHDF5 struct {
	clock_edge uint32
	count      int32
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("error creating file %s: %w", fname, err)
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, fmt.Errorf("error creating group %s: %w", groupName, err)
	}
	return g, nil
}

func create3dArray(group *hdf5.Group, name string, nChannels int, nSamples int, compression int) (*hdf5.Dataset, error) {
	dims := []uint{0, 0, 0}
	maxDims := []uint{uint(unlimitedDims), uint(nChannels), uint(nSamples)}
	chunks := []uint{1, uint(nChannels), uint(nSamples)}
	return createArray(group, name, dims, maxDims, chunks, compression)
}

func create2dArray(group *hdf5.Group, name string, nChannels int, compression int) (*hdf5.Dataset, error) {
	dims := []uint{0, 0}
	maxDims := []uint{uint(unlimitedDims), uint(nChannels)}
	chunks := []uint{tableChunk, uint(nChannels)}
	return createArray(group, name, dims, maxDims, chunks, compression)
}

func createArray(group *hdf5.Group, name string, dims []uint, maxDims []uint, chunks []uint, compression int) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, fmt.Errorf("error creating dataspace for %s: %w", name, err)
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, fmt.Errorf("error creating property list for %s: %w", name, err)
	}
	defer plist.Close()

	if err := plist.SetChunk(chunks); err != nil {
		return nil, fmt.Errorf("error setting chunks for %s: %w", name, err)
	}
	if compression > 0 {
		if err := plist.SetDeflate(compression); err != nil {
			return nil, fmt.Errorf("error setting compression for %s: %w", name, err)
		}
	}

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_INT16, fileSpace, plist)
	if err != nil {
		return nil, fmt.Errorf("error creating dataset %s: %w", name, err)
	}
	return dset, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compression int) (*hdf5.Dataset, error) {
	dims := []uint{0}
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, fmt.Errorf("error creating dataspace for %s: %w", name, err)
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, fmt.Errorf("error creating property list for %s: %w", name, err)
	}
	defer plist.Close()

	if err := plist.SetChunk([]uint{tableChunk}); err != nil {
		return nil, fmt.Errorf("error setting chunks for %s: %w", name, err)
	}
	if compression > 0 {
		if err := plist.SetDeflate(compression); err != nil {
			return nil, fmt.Errorf("error setting compression for %s: %w", name, err)
		}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, fmt.Errorf("error creating datatype for %s: %w", name, err)
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, fmt.Errorf("error creating table %s: %w", name, err)
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, rows int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, rows)
}

// writeArrayToTable appends data after the first rows entries of dataset.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rows int) error {
	length := uint(len(*data))
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	if err := dataset.Resize([]uint{uint(rows) + length}); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	if err := filespace.SelectHyperslab([]uint{uint(rows)}, nil, []uint{length}, nil); err != nil {
		return err
	}
	return dataset.WriteSubset(data, dataspace, filespace)
}

func writeArrayRow(dataset *hdf5.Dataset, data *[]int16, row int, dims []uint) error {
	newsize := append([]uint{uint(row) + 1}, dims...)
	if err := dataset.Resize(newsize); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := make([]uint, len(newsize))
	start[0] = uint(row)
	count := append([]uint{1}, dims...)
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}
